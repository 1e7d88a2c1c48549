// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package store

import json "github.com/goccy/go-json"

func marshal(doc any) ([]byte, error) {
	return json.Marshal(doc)
}

func unmarshal(data []byte, out any) error {
	return json.Unmarshal(data, out)
}
