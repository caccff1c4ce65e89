package testutil

import (
	"strconv"
)

// A keystore record whose signatures over FixtureTxBytes are known.
const (
	FixtureKeystoreRecord = "AAI9gSWWADI9gC6E53o1pfhaPSdhxNbQGjT6zTIjeijF"
	FixtureAddress        = "0x0a27f6f7d3b7907fbcc4265ee8e63f5447312a8f53fb270a36f892e6f264008f"
	FixtureTxBytes        = "AAACACAKJ/b307eQf7zEJl7o5j9URzEqj1P7Jwo2+JLm8mQAjwEAxeH0cqZyHhw5O9ex6npRVN/VqjeaklGk0sd3652k4IBGAAAAAAAAACAhCZTCQGadfZFHMUOmF/7vzYjaOL3iOFOttgQ8Vq8WRwEBAQEBAAEAAAon9vfTt5B/vMQmXujmP1RHMSqPU/snCjb4kubyZACPASyl4AYgixH+XTi5XBSI10IUmYMOMKQxedmoPg/qzXfZRQAAAAAAAAAgbcf/hvgkTrSAFqX06JcGyUca6ZeqRPOSOhgE/MNEw88KJ/b307eQf7zEJl7o5j9URzEqj1P7Jwo2+JLm8mQAj+gDAAAAAAAAwMYtAAAAAAAA"
	FixtureSignature      = "ABCbWyMJdo/y+RDUSqJ0TghGwzfQbmVTYHdb/FQ9SX3YybVkRrB+6nh4qutm7E1ZRqUzzC0YiG2FY9rl5IQkNAewlwaDbsn0alvR1qMy7xdd9548ZGz4MI7Mp0lic5Scsg=="

	// base58 of 32 bytes of 0x07
	FixtureDigest = "US517G5965aydkZ46HS38QLi7UQiSojurfbQfKCELFx"
)

func GasCoin(objectID string, balance uint64) map[string]interface{} {
	return map[string]interface{}{
		"coinType":            "0x2::sui::SUI",
		"coinObjectId":        objectID,
		"version":             "12",
		"digest":              FixtureDigest,
		"balance":             strconv.FormatUint(balance, 10),
		"previousTransaction": FixtureDigest,
	}
}

func CoinsPage(coins ...map[string]interface{}) map[string]interface{} {
	data := make([]interface{}, 0, len(coins))
	for _, c := range coins {
		data = append(data, c)
	}
	return map[string]interface{}{
		"data":        data,
		"nextCursor":  nil,
		"hasNextPage": false,
	}
}

func UnsafeTxResult(txBytes, gasObject string) map[string]interface{} {
	return map[string]interface{}{
		"txBytes": txBytes,
		"gas": []interface{}{
			map[string]interface{}{"objectId": gasObject, "version": 12, "digest": FixtureDigest},
		},
		"inputObjects": []interface{}{},
	}
}

// ExecuteResult is a successful execution whose effects created the given immutable objects
// plus one object owned by FixtureAddress.
func ExecuteResult(digest string, immutables ...string) map[string]interface{} {
	created := []interface{}{
		map[string]interface{}{
			"owner":     map[string]interface{}{"AddressOwner": FixtureAddress},
			"reference": map[string]interface{}{"objectId": "0xowned", "version": 13, "digest": FixtureDigest},
		},
	}
	for _, id := range immutables {
		created = append(created, map[string]interface{}{
			"owner":     "Immutable",
			"reference": map[string]interface{}{"objectId": id, "version": 1, "digest": FixtureDigest},
		})
	}
	return map[string]interface{}{
		"digest": digest,
		"effects": map[string]interface{}{
			"messageVersion":    "v1",
			"status":            map[string]interface{}{"status": "success"},
			"executedEpoch":     "3",
			"gasUsed":           map[string]interface{}{"computationCost": "1000", "storageCost": "2000", "storageRebate": "500", "nonRefundableStorageFee": "5"},
			"transactionDigest": digest,
			"created":           created,
			"gasObject": map[string]interface{}{
				"owner":     map[string]interface{}{"AddressOwner": FixtureAddress},
				"reference": map[string]interface{}{"objectId": "0xgas", "version": 13, "digest": FixtureDigest},
			},
		},
		"confirmedLocalExecution": true,
	}
}

// ExecuteResultWithoutEffects is an execution response that omits the effects section.
func ExecuteResultWithoutEffects(digest string) map[string]interface{} {
	return map[string]interface{}{
		"digest":                  digest,
		"confirmedLocalExecution": true,
	}
}

func OwnedObject(objectID, objectType string) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"objectId": objectID,
			"version":  "3",
			"digest":   FixtureDigest,
			"type":     objectType,
		},
	}
}

// ObjectsPage builds a suix_getOwnedObjects page. A nil cursor ends the walk.
func ObjectsPage(cursor *string, objects ...map[string]interface{}) map[string]interface{} {
	data := make([]interface{}, 0, len(objects))
	for _, o := range objects {
		data = append(data, o)
	}
	page := map[string]interface{}{
		"data":        data,
		"nextCursor":  nil,
		"hasNextPage": false,
	}
	if cursor != nil {
		page["nextCursor"] = *cursor
		page["hasNextPage"] = true
	}
	return page
}
