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

package main

import (
	"context"
	"flag"

	"github.com/paashzj/kafka_test_kit/pkg/kafkatest"
	"github.com/sirupsen/logrus"
)

var topic = flag.String("topic", "example", "topic to create")
var partitions = flag.Int("partitions", 3, "partition count for the topic")
var message = flag.String("message", "hello kafka test kit", "message to round trip")

func main() {
	flag.Parse()
	if err := run(context.Background()); err != nil {
		logrus.Fatalf("example failed. err: %s", err)
	}
}

func run(ctx context.Context) error {
	server := kafkatest.NewTestServer(nil)
	if err := server.Start(ctx); err != nil {
		_ = server.Close()
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			logrus.Errorf("close test server failed. err: %s", err)
		}
	}()
	logrus.Infof("kafka connect string %s", server.KafkaConnectString())
	logrus.Infof("zookeeper connect string %s", server.ZookeeperConnectString())

	if err := server.CreateTopic(ctx, *topic, int32(*partitions)); err != nil {
		return err
	}
	if err := server.ProduceBytes(ctx, *topic, []byte(*message)); err != nil {
		return err
	}
	values, err := server.ConsumeBytes(ctx, *topic, 1)
	if err != nil {
		return err
	}
	logrus.Infof("round tripped message: %s", values[0])
	return nil
}
