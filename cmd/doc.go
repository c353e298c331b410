// Package cmd implements the copscan command line interface.
package cmd
