/*
Package ports defines the interfaces (hexagonal "ports") between the Nexus
core and its adapters.

Driven ports (implemented by adapters, consumed by the engine):

  - SceneLoader: where scene definitions come from (loam, file, memory).
  - SnapshotStore: where simulation snapshots are persisted (memory, file, redis).
  - FrameSink: where per-frame render updates are delivered (tui, sse, tests).
  - DistributedLocker: cross-replica coordination for snapshot access.

Driving ports (implemented by the engine, consumed by adapters):

  - LiveScene: the operations an HTTP/MCP/TUI host needs from a mounted scene.
*/
package ports
