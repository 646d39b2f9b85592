/*
Package guidekit is a context-aware tutorial overlay engine for 3D CAD hosts.

It drives step-by-step tutorials shown in an embedded palette view: a user
works through a modeling exercise while the engine tracks where they are in
the host application (workspace, environment, active sketch), detects the
actions they complete, and guides them back when they wander into the wrong
context.

# Concept

The engine is split hexagonally. The core owns all tutorial and navigation
state on a single dispatch loop, playing the role of the host's interactive
thread. The host application is abstracted behind the ports.Host interface
(context reads, viewport commands, command events), and the palette view
behind ports.PaletteSender. Adapters connect real transports: a websocket
server for the embedded palette, a filesystem or Redis store for user
preferences, a directory loader for tutorial documents.

# Key Features

  - Always-proceed navigation: a context mismatch warns, never blocks.
  - Policy-gated redirects: OFF warns, ASK offers, ON walks the user back.
  - Completion detection: timeline diffing classifies what the user built.
  - Declarative QC checks: steps carry verifiable conditions over the design.
  - Hot reload: watched tutorial sources re-push the active step on change.

# Usage

Wire an App around a host implementation and a tutorial directory, then feed
it palette traffic:

	package main

	import (
		"context"
		"log"

		"github.com/guidekit/guidekit"
	)

	func main() {
		app, err := guidekit.New(myHost, "./tutorials")
		if err != nil {
			log.Fatal(err)
		}
		defer app.Close()

		payload, err := app.LoadTutorial(context.Background(), "coffee-mug")
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("step %d/%d: %s", payload.CurrentIndex+1, payload.TotalSteps, payload.Title)

		// Inbound palette messages dispatch on the engine's loop.
		app.HandleMessage([]byte(`{"action":"next"}`))
	}

The guidekit command wraps the same wiring with a websocket transport; see
cmd/guidekit.
*/
package guidekit
