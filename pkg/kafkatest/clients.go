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
	"github.com/twmb/franz-go/pkg/kgo"
)

// Keys and values are raw bytes on the wire; callers who want typed keys or
// values serialize before producing. Callers own disposal of every client
// returned here, there is no pooling.

// NewProducer builds a producer bound to the harness broker with delivery
// safety tuning: one in-flight produce request per broker, a bounded retry
// count and no client-side batching delay. Extra options override the
// defaults.
func (s *TestServer) NewProducer(opts ...kgo.Opt) (*kgo.Client, error) {
	base := []kgo.Opt{
		kgo.SeedBrokers(s.KafkaConnectString()),
		kgo.ClientID(s.config.ClientId + "-producer"),
		kgo.MaxProduceRequestsInflightPerBroker(1),
		kgo.RecordRetries(5),
		kgo.ProducerLinger(0),
	}
	return kgo.NewClient(append(base, opts...)...)
}

// NewConsumer builds a group consumer bound to the harness broker, pinned to
// the round-robin partition assignment strategy and reading from the start of
// the log.
func (s *TestServer) NewConsumer(groupId string, topics []string, opts ...kgo.Opt) (*kgo.Client, error) {
	base := []kgo.Opt{
		kgo.SeedBrokers(s.KafkaConnectString()),
		kgo.ClientID(s.config.ClientId + "-consumer"),
		kgo.ConsumerGroup(groupId),
		kgo.ConsumeTopics(topics...),
		kgo.Balancers(kgo.RoundRobinBalancer()),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	}
	return kgo.NewClient(append(base, opts...)...)
}

// NewAdminClient builds a plain client bound to the harness broker, suitable
// for wrapping with kadm for control-plane calls.
func (s *TestServer) NewAdminClient(opts ...kgo.Opt) (*kgo.Client, error) {
	base := []kgo.Opt{
		kgo.SeedBrokers(s.KafkaConnectString()),
		kgo.ClientID(s.config.ClientId + "-admin"),
	}
	return kgo.NewClient(append(base, opts...)...)
}
