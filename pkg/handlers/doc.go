// Package handlers is a container for the Lambda handlers of the task API.
// Each versioned sub-package holds the handlers for one version of the
// public contract. These are plain functions over API Gateway proxy events
// and know nothing about the runtime that hosts them.
package handlers
