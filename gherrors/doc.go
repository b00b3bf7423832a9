// Package gherrors defines the closed error taxonomy for GitHub API
// failures and the pure classifier that maps raw transport results
// onto it.
//
// Every remote failure crossing a component boundary is a *Error
// carrying a Tag, a severity, a retryability verdict, and a suggested
// recovery action. The Tag set is closed; the classifier's mapping is
// total over it.
package gherrors
