// Package ports defines the boundary interfaces of the guidance engine.
// The host application's object model and the embedded palette view are
// external collaborators; the engine only ever talks to them through the
// interfaces declared here, which keeps the core testable against scripted
// fakes.
package ports
