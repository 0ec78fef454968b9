// Copyright 2025 The Clustperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clustana

// A ConfigError reports that caller-supplied parameters are insufficient
// for the requested analysis, such as fewer than two backends for a
// comparison or no seed data for a variability check. The call may be
// retried with corrected parameters.
type ConfigError string

func (e ConfigError) Error() string { return string(e) }
