// Package tacit derives the per-branch tacit-knowledge values a user
// recognizes while walking a GreatWall tree, and turns them into
// presentable artifacts.
//
// A Deriver maps (node state, branch, optional domain tag) to a short value.
// A Renderer, chosen once per session by Kind, maps those values to an
// Artifact: a mnemonic sentence, fractal parameters or polygon vertices.
// Renderers never see node state, only derived values.
package tacit
