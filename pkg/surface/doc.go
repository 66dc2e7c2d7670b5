// Package surface derives per-vertex scalar fields from unwrapped meshes:
// a Dirichlet-energy curvature proxy and a binned normal orientation.
// Both take unwrapped arrays, three entries per triangle.
package surface
