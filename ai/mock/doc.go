// Package mock provides test doubles for the ai interfaces.
//
// The doubles are deterministic by default (same input, same output) and
// support behavior injection via exported function fields, so pipeline
// tests can simulate upstream failures without external services.
package mock
