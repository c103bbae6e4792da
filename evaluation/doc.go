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

// Package evaluation measures label accuracy against hand-labelled gold data.
//
// A gold file lists citizen profiles, the question asked for each, and the
// expected label for some of the schemes. Run answers every profile through
// an Answerer and scores the predicted labels; schemes without a gold label
// are ignored.
package evaluation
