// Package workflow sequences one recodec run: discovery, probing, planning,
// the confirmation gate, then a strictly sequential encode and commit per
// planned file.
//
// A run always ends in exactly one State. Per-file encode and commit
// failures are recorded in the Report and the batch carries on; discovery
// and (under the fail-fast policy) probe failures end the run in
// StateFatal before anything is encoded. Cancelling the context stops the
// run at the next boundary and ends it in StateInterrupted; the file being
// encoded at that moment keeps its original and leaves its temp output
// behind.
package workflow
