// Package views holds the templ components of the dashboard.
package views

//go:generate templ generate
