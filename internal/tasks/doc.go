// package tasks implements the client-side workflows on top of the API
// services and local repositories.
//
// The core abstractions are CatalogEngine, which loads and pages the
// program catalog, and OutreachEngine, which gates and performs
// coordinator email sends. Long-running operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI
// layers.
//
// The send path enforces the subscription rules locally: the email
// feature requires a paid plan, usage is checked against the quota
// before a send and the counter advanced after it, and a bulk send is
// all or nothing with respect to the remaining quota.
package tasks
