// Package domain contains the core business entities and value objects of
// the todo API: the Task record, its closed Category set, and the optional
// field wrapper used for partial updates. It is independent of any storage
// engine or delivery mechanism.
package domain
