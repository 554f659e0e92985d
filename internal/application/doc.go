// Package application provides application initialization and dependency
// wiring. It encapsulates loading the profile store and dispatching the
// requested operation (render, migrate, list), making the main package
// cleaner and more focused on CLI parsing and orchestration.
package application
