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

import (
	"path/filepath"
	"strings"
)

// 🏷️ Category is the coarse kind of a file, derived from its extension
type Category string

const (
	CategoryAll      Category = "all"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryDocument Category = "document"
	CategoryOther    Category = "other"
)

const OctetStream = "application/octet-stream"

var categoryExtensions = map[Category][]string{
	CategoryImage:    {"jpg", "jpeg", "png", "gif", "webp", "bmp"},
	CategoryVideo:    {"mp4", "mkv", "avi", "mov", "wmv", "flv"},
	CategoryDocument: {"pdf", "doc", "docx", "txt", "ppt", "pptx", "xls", "xlsx"},
}

var categoryOrder = []Category{CategoryImage, CategoryVideo, CategoryDocument}

var documentMIMETypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/msword",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.ms-excel",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.ms-powerpoint",
}

// 🔍 Classify maps a file name to its category, ignoring case
func Classify(name string) Category {
	lower := strings.ToLower(name)
	if lower == "" {
		return CategoryOther
	}
	for _, cat := range categoryOrder {
		for _, ext := range categoryExtensions[cat] {
			if strings.HasSuffix(lower, "."+ext) {
				return cat
			}
		}
	}
	return CategoryOther
}

// PassesExtension reports whether a classified file satisfies the category filter
func PassesExtension(category, want Category) bool {
	return want == CategoryAll || category == want
}

// MIMEType derives a MIME type from the file name alone
func MIMEType(name string) string {
	switch Classify(name) {
	case CategoryImage:
		return "image/*"
	case CategoryVideo:
		return "video/*"
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if mt, ok := documentMIMETypes[ext]; ok {
		return mt
	}
	return OctetStream
}

// 🔗 ResolveMIMEType prefers the declared type, then the name derived one
func ResolveMIMEType(declared, name string) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	if mt := MIMEType(name); mt != "" {
		return mt
	}
	return OctetStream
}

// Valid reports whether c can be used as an extension filter
func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryImage, CategoryVideo, CategoryDocument:
		return true
	}
	return false
}
