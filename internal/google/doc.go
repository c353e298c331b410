// Package google handles OAuth2 authentication against Google services.
//
// Tokens are cached per account under the user cache directory
// (~/.cache/copscan/<account>.token). The pipeline uses two accounts: the
// scraping account that reads report emails and the sender account that
// delivers the run report, so every entry point takes an account name.
package google
