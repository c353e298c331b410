// Package store persists pipeline data in Postgres.
//
// Layout follows the warehouse schemas: data_raw.raw_emails keeps the
// untouched scrape output, data_staging.stg_emails the flattened emails, and
// data_staging.stg_cop_emails the parsed package records. Parsed records are
// upserted keyed by message_id, so improvements to the parser can be applied
// by re-running without re-scraping.
//
// Every batch write runs behind an exponential-backoff retry, since the
// hosted Postgres occasionally sheds connections under load.
package store
