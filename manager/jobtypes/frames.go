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

package jobtypes

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxFrames bounds the number of frames a single frame range may expand to.
const MaxFrames = 1 << 20

// ParseFrames expands a frame range such as "1-10,15,20-25". Frames keep
// the order they are given in, repeated frames are dropped.
func ParseFrames(frames string) ([]int, error) {
	if strings.TrimSpace(frames) == "" {
		return nil, fmt.Errorf("empty frame range")
	}

	var result []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(frames, ",") {
		part = strings.TrimSpace(part)
		start, end, err := parseFramePart(part)
		if err != nil {
			return nil, err
		}

		// end-start can not overflow, both bounds are non-negative.
		if end-start >= MaxFrames-len(result) {
			return nil, fmt.Errorf("frame range %q expands to more than %d frames", frames, MaxFrames)
		}

		for f := start; f <= end; f++ {
			if seen[f] {
				continue
			}
			seen[f] = true
			result = append(result, f)
		}
	}

	return result, nil
}

func parseFramePart(part string) (int, int, error) {
	if part == "" {
		return 0, 0, fmt.Errorf("empty frame in range")
	}

	bounds := strings.SplitN(part, "-", 2)
	start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil || start < 0 {
		return 0, 0, fmt.Errorf("invalid frame %q", part)
	}

	if len(bounds) == 1 {
		return start, start, nil
	}

	end, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil || end < 0 {
		return 0, 0, fmt.Errorf("invalid frame %q", part)
	}

	if end < start {
		return 0, 0, fmt.Errorf("frame range %q ends before it starts", part)
	}

	return start, end, nil
}

// ChunkFrames splits frames into chunks of at most size frames, each
// written back as a compact frame range.
func ChunkFrames(frames []int, size int) []string {
	if size <= 0 {
		size = 1
	}

	var chunks []string
	for i := 0; i < len(frames); i += size {
		end := i + size
		if end > len(frames) {
			end = len(frames)
		}
		chunks = append(chunks, FormatFrames(frames[i:end]))
	}

	return chunks
}

// FormatFrames writes frames as a frame range, joining consecutive frames.
func FormatFrames(frames []int) string {
	var b strings.Builder
	for i := 0; i < len(frames); {
		j := i
		for j+1 < len(frames) && frames[j+1] == frames[j]+1 {
			j++
		}

		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(strconv.Itoa(frames[i]))
		if j > i {
			b.WriteByte('-')
			b.WriteString(strconv.Itoa(frames[j]))
		}
		i = j + 1
	}

	return b.String()
}
