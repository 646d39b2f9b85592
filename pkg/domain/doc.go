// Package domain contains the core value objects of the guidance engine:
// context snapshots, step requirements, tutorials, redirect steps, completion
// events and user preferences. Types here are plain data with JSON mappings
// matching the palette protocol and the tutorial document format; all policy
// lives in the internal packages.
package domain
