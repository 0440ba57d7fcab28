/*
 *     Copyright 2022 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// SHA256FromBytes computes the sha256 of bytes.
func SHA256FromBytes(bytes []byte) string {
	h := sha256.New()
	h.Write(bytes)
	return ToHashString(h)
}

func ToHashString(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
