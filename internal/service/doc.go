// Package service holds the application logic between the HTTP layer and
// the task store. Input validation happens before a service is called; the
// service assigns categories and delegates persistence.
package service
