// Package api handles incoming HTTP requests, request validation and
// response formatting for the task endpoints. It translates HTTP concerns
// to calls on service.TaskService and maps errors back to status codes.
package api
