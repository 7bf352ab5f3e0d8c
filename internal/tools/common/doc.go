// Package common provides shared helpers for the MCP tool and resource
// registrations: instrumentation wrappers and the parameter definitions
// every analytics tool shares.
package common
