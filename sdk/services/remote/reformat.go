// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"encoding/json"
	"strconv"

	"github.com/ideafast/dmp-cli-sdk/sdk/services/manifest"
	"github.com/ideafast/dmp-cli-sdk/sdk/utils"
)

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asInt64 tolerates the mixed number encodings the server uses (JSON
// numbers and stringified integers).
func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// reformatFileEntry turns one server file entry into a FileRecord.
// The server buries participant, device and time range in a JSON
// "description" string.
func reformatFileEntry(fe map[string]any, studyName string) manifest.FileRecord {
	var description map[string]any
	if dtx := asString(fe["description"]); dtx != "" {
		_ = json.Unmarshal([]byte(dtx), &description)
	}
	deviceID := asString(description["deviceId"])
	startStamp := asInt64(description["startDate"])
	endStamp := asInt64(description["endDate"])
	uploadStamp := asInt64(fe["uploadTime"])
	return manifest.FileRecord{
		FileID:        asString(fe["id"]),
		FileName:      asString(fe["fileName"]),
		FileSize:      asInt64(fe["fileSize"]),
		ParticipantID: asString(description["participantId"]),
		DeviceKind:    manifest.DeviceKindOf(deviceID),
		DeviceID:      deviceID,
		TimeStart:     utils.StampToText(startStamp),
		TimeEnd:       utils.StampToText(endStamp),
		TimeUpload:    utils.StampToText(uploadStamp),
		StampStart:    startStamp,
		StampEnd:      endStamp,
		StampUpload:   uploadStamp,
		UploadedBy:    asString(fe["uploadedBy"]),
		StudyID:       asString(fe["studyId"]),
		StudyName:     studyName,
	}
}
