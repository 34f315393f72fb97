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


package storage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/ticketrouter/core"
)

// MarshalTeamRecord serializes a TeamRecord to bytes.
func MarshalTeamRecord(record *TeamRecord) []byte {
	buf := make([]byte, TeamRecordMUS.Size(*record))
	TeamRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalTeamRecord deserializes a TeamRecord from bytes. Any decode
// failure means the persisted bytes are unusable and is reported as
// ErrCorruptRecord so callers rebuild instead of failing.
func UnmarshalTeamRecord(data []byte) (*TeamRecord, error) {
	record, _, err := TeamRecordMUS.Unmarshal(data)
	if err != nil {
		if errors.Is(err, ErrCorruptRecord) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrCorruptRecord, err)
	}
	return &record, nil
}

// TeamRecordMUS is the MUS serializer for TeamRecord. The weight table is
// marshaled in sorted token order so equal records produce equal bytes.
var TeamRecordMUS = teamRecordMUS{}

type teamRecordMUS struct{}

func (s teamRecordMUS) Marshal(v TeamRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.Team, bs)

	n += varint.Int.Marshal(len(v.Chunks), bs[n:])
	for _, c := range v.Chunks {
		n += core.ChunkMUS.Marshal(c, bs[n:])
	}

	n += varint.Int.Marshal(len(v.Index), bs[n:])
	n += copy(bs[n:], v.Index)

	tokens := sortedTokens(v.Weights)
	n += varint.Int.Marshal(len(tokens), bs[n:])
	for _, token := range tokens {
		n += ord.String.Marshal(token, bs[n:])
		n += raw.Float64.Marshal(v.Weights[token], bs[n:])
	}

	n += varint.Int.Marshal(len(v.Fingerprint), bs[n:])
	n += copy(bs[n:], v.Fingerprint)
	return
}

func (s teamRecordMUS) Unmarshal(bs []byte) (v TeamRecord, n int, err error) {
	v.Team, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}

	var n1, length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrCorruptRecord
		return
	}
	if length > 0 {
		v.Chunks = make([]core.Chunk, length)
		for i := 0; i < length; i++ {
			v.Chunks[i], n1, err = core.ChunkMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}

	v.Index, n1, err = unmarshalBytes(bs[n:])
	n += n1
	if err != nil {
		return
	}

	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrCorruptRecord
		return
	}
	if length > 0 {
		v.Weights = make(map[string]float64, length)
		for i := 0; i < length; i++ {
			var token string
			var weight float64
			token, n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			weight, n1, err = raw.Float64.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			v.Weights[token] = weight
		}
	}

	v.Fingerprint, n1, err = unmarshalBytes(bs[n:])
	n += n1
	return
}

func (s teamRecordMUS) Size(v TeamRecord) (size int) {
	size = ord.String.Size(v.Team)

	size += varint.Int.Size(len(v.Chunks))
	for _, c := range v.Chunks {
		size += core.ChunkMUS.Size(c)
	}

	size += varint.Int.Size(len(v.Index))
	size += len(v.Index)

	size += varint.Int.Size(len(v.Weights))
	for token, weight := range v.Weights {
		size += ord.String.Size(token)
		size += raw.Float64.Size(weight)
	}

	size += varint.Int.Size(len(v.Fingerprint))
	size += len(v.Fingerprint)
	return
}

func (s teamRecordMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

func unmarshalBytes(bs []byte) (data []byte, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		err = ErrCorruptRecord
		return
	}
	if length > 0 {
		data = make([]byte, length)
		n += copy(data, bs[n:n+length])
	}
	return
}

func sortedTokens(weights map[string]float64) []string {
	tokens := make([]string, 0, len(weights))
	for token := range weights {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
