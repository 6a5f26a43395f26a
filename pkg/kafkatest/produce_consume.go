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
	"context"

	"github.com/pkg/errors"
	"github.com/twmb/franz-go/pkg/kgo"
)

// ProduceBytes synchronously produces one record per value to topic.
func (s *TestServer) ProduceBytes(ctx context.Context, topic string, values ...[]byte) error {
	producer, err := s.NewProducer()
	if err != nil {
		return errors.Wrap(err, "create producer")
	}
	defer producer.Close()
	records := make([]*kgo.Record, 0, len(values))
	for _, value := range values {
		records = append(records, &kgo.Record{Topic: topic, Value: value})
	}
	if err = producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return errors.Wrapf(err, "produce to topic %s", topic)
	}
	return nil
}

// ConsumeBytes reads expected record values from the start of topic with a
// groupless consumer, blocking until enough records arrive or ctx is done.
func (s *TestServer) ConsumeBytes(ctx context.Context, topic string, expected int) ([][]byte, error) {
	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.KafkaConnectString()),
		kgo.ClientID(s.config.ClientId+"-consumer"),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create consumer")
	}
	defer consumer.Close()
	var values [][]byte
	for len(values) < expected {
		fetches := consumer.PollFetches(ctx)
		if errs := fetches.Errors(); len(errs) > 0 {
			return values, errors.Wrapf(errs[0].Err, "fetch from topic %s", topic)
		}
		fetches.EachRecord(func(record *kgo.Record) {
			values = append(values, record.Value)
		})
	}
	return values, nil
}
