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

// Package api exposes eligibility queries over HTTP.
//
// Routes:
//
//	POST /v1/eligibility     {profile, question, top_k} -> ranked determinations
//	GET  /healthz            liveness plus the live snapshot version
//	POST /v1/admin/reload    rebuild the snapshot from the stored dataset
//
// Every response carries an X-Request-ID header; a caller-supplied one is
// echoed back. Errors use a {"error": {"message", "code"}} envelope.
package api
