// Package apf is an artificial potential field path planner for 2-D grids.
//
// What is apf?
//
//	A goal pulls, obstacles push, and an agent rolls downhill one cell at a
//	time. The library brings together:
//		• Vector fields: dense (W, H, 2) grids with elementwise kernels
//		• Field builders: goal attraction and per-obstacle repulsion
//		• Combination: sum + magnitude clamp, with a per-obstacle field cache
//		• Path following: discrete descent with a virtual escape force
//		• Sessions: re-planning on pose or obstacle changes, cancellable mid-run
//
// Packages:
//
//	vecfield/      Field and Vec types, Sum, Clamp, RemapMasked
//	workspace/     grid bounds, poses and rectangular obstacles
//	potential/     Attractive, Repulsive, Combine, Cache and the Planner session
//	descent/       Follower state machine, waypoints, invalidation Signal
//	config/        viper-backed settings (apf.yaml, APF_* env)
//	observability/ zap logger with optional rotating file sink
//	scenario/      YAML scenarios and an fsnotify file watcher
//	render/        tcell drawing of fields, obstacles and paths
//	cli/, cmd/apf  the apf command (plan, watch, view, version)
//
// Quick example:
//
//	ws := workspace.Workspace{Width: 100, Height: 100}
//	p, _ := potential.New(ws, workspace.Pose{X: 10, Y: 10}, workspace.Pose{X: 90, Y: 90}, 5, nil)
//	res, _ := p.Start(ctx)
//	fmt.Println(res.State, res.Path.Coords())
//
// The planner is a local method: it gives no optimality or completeness
// guarantee and can oscillate in front of obstacles. Follower runs are
// bounded by MaxSteps.
//
//	go install github.com/katalvlaran/apf/cmd/apf@latest
package apf
