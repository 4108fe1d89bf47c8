// Package params defines the ordered parameter set shared by the bootstrap
// reader, the form component and the navigation target builders. A Set is
// built once from a flat JSON object and never mutated afterwards; With
// returns an updated copy. Iteration always follows the key order of the
// source payload so rendered widgets line up with the bootstrap document.
package params
