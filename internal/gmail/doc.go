// Package gmail provides the Gmail API client used by the pipeline.
//
// It covers the two sides of the pipeline's mail traffic:
//   - retrieval: paginated message search, full-message fetch, MIME part
//     walking and body decoding for the scraped report emails
//   - sending: building and sending the RFC 2822 run-report email with its
//     spreadsheet and log attachments
//
// Authentication uses the cached OAuth tokens from the google package; the
// scraping and sending sides typically run under different accounts.
package gmail
