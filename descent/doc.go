// Package descent follows a combined potential field from a start cell to a
// goal by discrete gradient descent.
//
// Each Step samples the field at the agent's cell, advances by the truncated
// field vector and appends a Waypoint. When the candidate cell equals the
// current one the agent is stuck in a local minimum (or pinned against the
// workspace border); a virtual escape force is then added to that cell and
// the whole field is re-clamped so the next step moves.
//
// State machine:
//
//	Running ──stuck──▶ StuckRecovery ──moved──▶ Running
//	   │                     │
//	   ├── within radius ────┴──▶ GoalReached
//	   ├── Signal set ───────────▶ Aborted
//	   └── MaxSteps reached ─────▶ ExceededMaxSteps
//
// The invalidation Signal is checked at the top of every iteration, never in
// the middle of one. Run drives Step with optional real-time pacing; callers
// that want their own scheduling call Step directly.
package descent
