// Package influxdb records search analytics in InfluxDB.
//
// Each completed search becomes one point in the "searches" measurement,
// tagged with which filters were applied and carrying the query length,
// result count and latency as fields. Query text is never stored.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // analytics off
//	}
//	defer client.Close()
//
//	client.WriteSearch(influxdb.SearchPoint{...})
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched according to batch_size and flush_interval; asynchronous write
// failures are delivered to the SetOnError callback.
package influxdb
