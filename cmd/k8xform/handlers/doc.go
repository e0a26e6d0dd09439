// Package handlers implements the business logic for k8xform CLI commands.
//
// Each handler loads the deployment configuration, connects to the cluster
// and delegates to the transformer lifecycle manager. Dependencies are held
// in package-level factory variables so tests can swap them for fakes.
package handlers
