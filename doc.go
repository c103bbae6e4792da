// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package yojana answers "which welfare schemes am I eligible for, and why?"
// with deterministic, cited determinations.
//
// A Database ties together the persisted dataset, the embedding service and
// the live snapshot that queries run against:
//
//	db, err := yojana.NewDatabase("/var/lib/yojana")
//	if err != nil { ... }
//	defer db.Close()
//
//	results, err := db.Answer(ctx, core.UserProfile{"age": 22, "state": "Kerala"},
//	    "scholarships for engineering students")
//
// Each result carries a three-valued label, the per-criterion trace with
// provenance, supporting evidence chunks and a templated explanation.
// Ingesting a new manifest, or calling Reload, swaps the live snapshot
// atomically; in-flight queries finish against the snapshot they started with.
package yojana
