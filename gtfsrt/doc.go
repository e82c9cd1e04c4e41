// Package gtfsrt decodes GTFS-Realtime snapshot files into plain Go values.
//
// Decode turns one raw snapshot (protobuf, optionally gzip-compressed) into a Snapshot:
// the header timestamp and an ordered list of entities, each carrying a TripUpdateEntity,
// a VehiclePositionEntity, or neither (alerts and other entity kinds).
//
// Absent wire fields map to documented zero values at this boundary so the rest of the
// pipeline never touches protobuf getters:
//   - identifiers: "" means absent
//   - epoch timestamps: 0 means absent
//   - optional enums and counters that have a meaningful zero: nil pointer means absent
//
// Decode never panics on bad input. Empty, truncated or non-conforming payloads come
// back as a *DecodeError the caller can log and skip.
package gtfsrt
