// Package potential builds artificial potential fields over a workspace and
// runs planning sessions on them.
//
// Overview:
//
//   - Attractive pulls every cell toward the goal. Its magnitude is computed as
//     sqrt(2·(dx²+dy²)), a factor √2 above the Euclidean distance,
//     and the direction is normalised by that same value, so far-field vectors
//     have length FarMagnitude/√2. Cells whose magnitude is within the goal
//     radius decelerate linearly from MaxVel (at the goal) to MinVel (at the
//     radius); all other cells get FarMagnitude.
//   - Repulsive pushes cells away from one obstacle's centre. Inside
//     FalloffFactor × obstacle width the magnitude falls linearly from MaxVel
//     to MinVel; outside it is zero.
//   - Combine sums the attractive field with every repulsive field and clamps
//     each vector's magnitude to [Epsilon, MaxMagnitude].
//   - Cache keeps one repulsive field per obstacle ID and builds misses in
//     parallel.
//   - Planner is a planning session: Start rebuilds the goal field, fills cache
//     misses, combines, then follows the field with package descent.
//
// Concurrency:
//
//	A Planner is driven by one goroutine calling Start. Other goroutines may
//	call SetObstacles, UpdatePose, Prune and Invalidate at any time; Invalidate
//	makes an in-flight Start return with descent.Aborted at its next iteration.
//
// Complexity:
//
//	Each builder is O(W·H). Start is O((1+k)·W·H) for k cache misses plus the
//	path-following cost, which is bounded by MaxSteps.
package potential
