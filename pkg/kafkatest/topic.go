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
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

const topicReplicationFactor = 1 // single node, nothing to replicate to

// CreateTopic creates a topic and waits for the result. A topic that already
// exists is treated as success; every other failure is returned wrapped and
// is not retried. The admin connection is scoped to this call.
func (s *TestServer) CreateTopic(ctx context.Context, topic string, partitions int32) error {
	cl, err := s.NewAdminClient()
	if err != nil {
		return errors.Wrap(err, "create admin client")
	}
	defer cl.Close()
	resps, err := kadm.NewClient(cl).CreateTopics(ctx, partitions, topicReplicationFactor, nil, topic)
	if err != nil {
		return errors.Wrapf(err, "create topic %s", topic)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return errors.Wrapf(resp.Err, "create topic %s", topic)
		}
	}
	return nil
}

// DeleteTopic deletes a topic and waits for the result. Deleting a topic that
// does not exist is treated as success.
func (s *TestServer) DeleteTopic(ctx context.Context, topic string) error {
	cl, err := s.NewAdminClient()
	if err != nil {
		return errors.Wrap(err, "create admin client")
	}
	defer cl.Close()
	resps, err := kadm.NewClient(cl).DeleteTopics(ctx, topic)
	if err != nil {
		return errors.Wrapf(err, "delete topic %s", topic)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.UnknownTopicOrPartition) {
			return errors.Wrapf(resp.Err, "delete topic %s", topic)
		}
	}
	return nil
}
