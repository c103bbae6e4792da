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


// Package retrieval answers eligibility questions against a snapshot.
//
// The Orchestrator combines three signals for every request:
//   - a structural shortlist of schemes from the knowledge graph, keyed on
//     the profile's state and the universal jurisdiction
//   - a three-valued rule evaluation of each candidate's criteria
//   - semantic evidence from the index, restricted to the documents the
//     candidate's criteria and benefits cite
//
// Candidates are evaluated concurrently on a worker pool. Results are ranked
// ELIGIBLE first, then INSUFFICIENT_INFO, then NOT_ELIGIBLE, with ties broken
// by the best evidence score and finally by scheme insertion order.
package retrieval
