/*
Package featchain composes reusable, type-checked data-transformation
pipelines over feature matrices extracted from audio signals.

# Concept

Data flows through an ordered chain of processors. Every processor declares
the kind of data it consumes and produces:

	NONE -> AUDIO -> DATA_CONTAINER -> ...
	NONE -> AUDIO -> DATA_REPOSITORY -> DATA_CONTAINER -> ...

A chain validates adjacent kinds at construction time, so mismatched
pipelines fail before any data is touched. While executing, the chain
records a provenance trail: one entry per stage with the stage identity,
its configuration and the call-scoped parameters used.

# Packages

	container   matrix, audio and repository containers with focus sub-views
	window      sliding-window aggregation, sequencing and recipe stacking
	recipe      the textual stacking recipe format
	normalize   accumulated mean/std normalization
	feature     frame-based feature extractors
	encode      label encoders producing binary target matrices
	meta        metadata records from annotation readers
	chain       the processor contract, chain validation and execution
	audiofile   the wav file boundary

All windowed-array operations are pure functions and safe for concurrent
use; chains and accumulating normalizers hold mutable state and belong to
one goroutine each.
*/
package featchain
