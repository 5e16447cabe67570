package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/consul/api"
)

// ConsulExporter publishes the summary of a report to the Consul KV store.
// Consul limits values to 512KB, so entries are not exported.
type ConsulExporter struct {
	kv     *api.KV
	prefix string
}

type consulSummary struct {
	Name         string    `json:"name"`
	Against      string    `json:"against"`
	GeneratedAt  time.Time `json:"generated_at"`
	Files        int       `json:"files"`
	Size         int64     `json:"size"`
	SharedFiles  int       `json:"shared_files"`
	SharedSize   int64     `json:"shared_size"`
	ChangedFiles int       `json:"changed_files"`
	ChangedSize  int64     `json:"changed_size"`
	UniqueFiles  int       `json:"unique_files"`
	UniqueSize   int64     `json:"unique_size"`
}

func NewConsulExporter(address, token, prefix string) (*ConsulExporter, error) {
	if address == "" {
		address = "127.0.0.1:8500"
	}

	config := api.DefaultConfig()
	config.Address = address
	if token != "" {
		config.Token = token
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &ConsulExporter{
		kv:     client.KV(),
		prefix: prefix,
	}, nil
}

func (*ConsulExporter) Name() string {
	return "consul"
}

func (ce *ConsulExporter) Export(ctx context.Context, report *Report) error {
	s := report.Summary
	value, err := json.Marshal(consulSummary{
		Name:         report.Name,
		Against:      report.Against,
		GeneratedAt:  report.GeneratedAt,
		Files:        s.Files,
		Size:         s.Size,
		SharedFiles:  s.SharedFiles,
		SharedSize:   s.SharedSize,
		ChangedFiles: s.ChangedFiles,
		ChangedSize:  s.ChangedSize,
		UniqueFiles:  s.UniqueFiles,
		UniqueSize:   s.UniqueSize,
	})
	if err != nil {
		return err
	}

	pair := &api.KVPair{
		Key:   ce.buildKey(report.Key()),
		Value: value,
	}
	_, err = ce.kv.Put(pair, (&api.WriteOptions{}).WithContext(ctx))
	return err
}

// buildKey joins the configured prefix and key without a leading slash.
func (ce *ConsulExporter) buildKey(key string) string {
	prefix := ce.prefix
	for len(prefix) > 0 && prefix[0] == '/' {
		prefix = prefix[1:]
	}
	if prefix == "" {
		return key
	}
	if prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	return prefix + key
}
