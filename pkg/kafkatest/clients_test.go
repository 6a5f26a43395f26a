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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"
)

const testContent = "test-content"

func TestProducerConsumerRoundTrip(t *testing.T) {
	server, _ := setupKfakeServer(t)
	ctx := testContext(t)
	topic := uuid.New().String()
	err := server.CreateTopic(ctx, topic, 1)
	assert.Nil(t, err)

	producer, err := server.NewProducer()
	assert.Nil(t, err)
	defer producer.Close()
	err = producer.ProduceSync(ctx, &kgo.Record{Topic: topic, Value: []byte(testContent)}).FirstErr()
	assert.Nil(t, err)

	consumer, err := server.NewConsumer(uuid.New().String(), []string{topic})
	assert.Nil(t, err)
	defer consumer.Close()
	var value []byte
	for value == nil {
		fetches := consumer.PollFetches(ctx)
		if errs := fetches.Errors(); len(errs) > 0 {
			t.Fatal(errs[0].Err)
		}
		fetches.EachRecord(func(record *kgo.Record) {
			value = record.Value
		})
	}
	assert.Equal(t, []byte(testContent), value)
}

func TestProduceConsumeBytesHelpers(t *testing.T) {
	server, _ := setupKfakeServer(t)
	ctx := testContext(t)
	topic := uuid.New().String()
	err := server.CreateTopic(ctx, topic, 1)
	assert.Nil(t, err)

	sent := [][]byte{[]byte("a"), []byte("b"), []byte("c")}
	err = server.ProduceBytes(ctx, topic, sent...)
	assert.Nil(t, err)
	values, err := server.ConsumeBytes(ctx, topic, len(sent))
	assert.Nil(t, err)
	assert.Equal(t, sent, values)
}
