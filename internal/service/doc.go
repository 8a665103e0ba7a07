// Package service contains the orchestration layer between the API
// surface and the store and realtime packages.
package service
