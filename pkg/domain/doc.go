/*
Package domain contains the core domain models for the Nexus scene engine.

It defines the fundamental entities of the simulation, such as Nodes, Edges,
Scene definitions and the per-frame render state. This package is kept pure
and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - NodeSpec / Edge: the static scene description (fixed at mount time).
  - Node: the live simulation entity (position, velocity, render attributes).
  - Definition: a named scene (node descriptors + adjacency list).
  - Frame: the render-sync payload produced after every simulation step.
  - Snapshot: a persistable capture of a live scene's simulation state.
*/
package domain
