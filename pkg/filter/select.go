// Copyright 2025 walteh LLC
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

package filter

// SelectCount is the number of entries Select keeps out of total
func SelectCount(total, percentage int) int {
	if total <= 0 {
		return 0
	}
	percentage = min(max(percentage, 0), 100)
	return max(1, percentage*total/100)
}

// ✂️ Select returns the leading share of entries given by percentage.
// The result is always a prefix, so identical input gives identical output.
func Select[T any](entries []T, percentage int) []T {
	n := SelectCount(len(entries), percentage)
	out := make([]T, n)
	copy(out, entries[:n])
	return out
}
