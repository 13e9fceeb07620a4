// Package logging provides a unified logging interface for the splash
// sequencer and its renderers. It abstracts the underlying logging
// implementation so the controller can log phase transitions without knowing
// whether it runs under the terminal renderer, the plain presenter or the
// headless service.
package logging
