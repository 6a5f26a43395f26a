// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package kafkatest

import (
	"time"
)

const (
	defaultZookeeperImage = "confluentinc/cp-zookeeper:7.5.3"
	defaultKafkaImage     = "confluentinc/cp-kafka:7.5.3"
	defaultBrokerId       = 1
	defaultClientId       = "kafka-test-kit"
	defaultStartupTimeout = 2 * time.Minute
	defaultTickTime       = 1000
)

// Config tunes the test servers. The zero value is usable, every field falls
// back to a default.
type Config struct {
	ZookeeperImage string
	KafkaImage     string
	BrokerId       int
	ClientId       string
	StartupTimeout time.Duration
}

func withDefaults(config *Config) *Config {
	filled := Config{}
	if config != nil {
		filled = *config
	}
	if filled.ZookeeperImage == "" {
		filled.ZookeeperImage = defaultZookeeperImage
	}
	if filled.KafkaImage == "" {
		filled.KafkaImage = defaultKafkaImage
	}
	if filled.BrokerId == 0 {
		filled.BrokerId = defaultBrokerId
	}
	if filled.ClientId == "" {
		filled.ClientId = defaultClientId
	}
	if filled.StartupTimeout == 0 {
		filled.StartupTimeout = defaultStartupTimeout
	}
	return &filled
}
