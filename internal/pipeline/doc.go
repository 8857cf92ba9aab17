// Package pipeline runs one guidance tick: it pulls tracker
// observations, then updates the anchor, the slot guide poses, the
// direction indicator and the secondary-marker feedback, in that order,
// and hands the resulting Frame to an optional renderer.
//
// The pipeline owns no domain state. The anchor compositor, the slot
// machine and the markers each own theirs; the scene only reads them
// through accessors and caches the derived guide poses.
package pipeline
