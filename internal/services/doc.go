// Package services provides clients for the UniWorld backend REST API
// and the provider OAuth endpoints. The [APIClient] handles transport
// concerns (auth headers, CSRF, rate limiting) while [UniWorldService]
// and [AssistantService] expose typed operations on top of it.
package services
