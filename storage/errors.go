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

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrHomeProtected indicates an attempt to delete the home folder.
	ErrHomeProtected = errors.New("home folder cannot be deleted")

	// ErrOrderMismatch indicates a reorder request whose id set does not
	// exactly match the records currently in the folder.
	ErrOrderMismatch = errors.New("ids do not match the folder contents")

	// ErrStorage indicates that the underlying key-value store failed.
	ErrStorage = errors.New("storage operation failed")

	// ErrUnreachable indicates the store did not become reachable within
	// the bounded probe window.
	ErrUnreachable = errors.New("storage is unreachable")

	// ErrSerialization indicates a JSON encode/decode failure.
	ErrSerialization = errors.New("serialization failed")
)
