// Package parallel runs independent jobs, such as extension package copies,
// on a bounded worker pool.
package parallel
