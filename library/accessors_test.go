/*
 * Copyright 2025 The Omnivore Authors.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package library

import "testing"

func TestPrefixPattern(t *testing.T) {
	cases := []struct {
		prefix string
		want   string
	}{
		{"Wo", "wo%"},
		{"100%", `100\%%`},
		{"a_b", `a\_b%`},
		{`c\d`, `c\\d%`},
		{"", "%"},
	}
	for _, c := range cases {
		if got := prefixPattern(c.prefix); got != c.want {
			t.Errorf("prefixPattern(%q) = %q, want %q", c.prefix, got, c.want)
		}
	}
}
