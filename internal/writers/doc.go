// Package writers turns window snapshots into serialized outputs.
//
// Design:
//   • Writers own all presentation knowledge (TSV/JSON/JSONL, compression).
//   • The scheduler stays domain-only; the pipeline stays orchestration-only.
//   • JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
