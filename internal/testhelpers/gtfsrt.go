package testhelpers

import (
	"bytes"
	"testing"

	gtfsrtpb "github.com/OneBusAway/go-gtfs/proto"
	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/proto"
)

// StopUpdate describes one stop-time update. Zero times are omitted from the message.
type StopUpdate struct {
	Seq       uint32
	NoSeq     bool
	StopID    string
	Arrival   int64
	Departure int64
}

// TripUpdate describes a trip-update entity. Relationship is the raw enum value, nil omits it.
type TripUpdate struct {
	TripID       string
	RouteID      string
	VehicleID    string
	Relationship *int32
	Stops        []StopUpdate
}

// VehiclePing describes a vehicle-position entity.
type VehiclePing struct {
	VehicleID    string
	TripID       string
	Relationship *int32
	Lat, Lon     float32
	Bearing      float32
	Speed        float32
	Timestamp    uint64
	StopSeq      *uint32
	StopID       string
	Status       *int32
}

// Rel returns a pointer to a raw enum value.
func Rel(v int32) *int32 { return &v }

// Seq returns a pointer to a stop sequence.
func Seq(v uint32) *uint32 { return &v }

// TripUpdateFeed marshals a FeedMessage carrying one trip-update entity per update.
func TripUpdateFeed(t testing.TB, ts uint64, updates ...TripUpdate) []byte {
	t.Helper()
	msg := newFeed(ts)
	for _, u := range updates {
		tu := &gtfsrtpb.TripUpdate{Trip: &gtfsrtpb.TripDescriptor{TripId: proto.String(u.TripID)}}
		if u.RouteID != "" {
			tu.Trip.RouteId = proto.String(u.RouteID)
		}
		if u.Relationship != nil {
			tu.Trip.ScheduleRelationship = gtfsrtpb.TripDescriptor_ScheduleRelationship(*u.Relationship).Enum()
		}
		if u.VehicleID != "" {
			tu.Vehicle = &gtfsrtpb.VehicleDescriptor{Id: proto.String(u.VehicleID)}
		}
		for _, s := range u.Stops {
			stu := &gtfsrtpb.TripUpdate_StopTimeUpdate{}
			if !s.NoSeq {
				stu.StopSequence = proto.Uint32(s.Seq)
			}
			if s.StopID != "" {
				stu.StopId = proto.String(s.StopID)
			}
			if s.Arrival != 0 {
				stu.Arrival = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(s.Arrival)}
			}
			if s.Departure != 0 {
				stu.Departure = &gtfsrtpb.TripUpdate_StopTimeEvent{Time: proto.Int64(s.Departure)}
			}
			tu.StopTimeUpdate = append(tu.StopTimeUpdate, stu)
		}
		msg.Entity = append(msg.Entity, &gtfsrtpb.FeedEntity{
			Id:         proto.String("tu-" + u.TripID),
			TripUpdate: tu,
		})
	}
	return mustMarshal(t, msg)
}

// VehicleFeed marshals a FeedMessage carrying one vehicle-position entity per ping.
func VehicleFeed(t testing.TB, ts uint64, pings ...VehiclePing) []byte {
	t.Helper()
	msg := newFeed(ts)
	for _, p := range pings {
		vp := &gtfsrtpb.VehiclePosition{
			Vehicle: &gtfsrtpb.VehicleDescriptor{Id: proto.String(p.VehicleID)},
			Position: &gtfsrtpb.Position{
				Latitude:  proto.Float32(p.Lat),
				Longitude: proto.Float32(p.Lon),
				Bearing:   proto.Float32(p.Bearing),
				Speed:     proto.Float32(p.Speed),
			},
		}
		if p.Timestamp != 0 {
			vp.Timestamp = proto.Uint64(p.Timestamp)
		}
		if p.TripID != "" || p.Relationship != nil {
			vp.Trip = &gtfsrtpb.TripDescriptor{TripId: proto.String(p.TripID)}
			if p.Relationship != nil {
				vp.Trip.ScheduleRelationship = gtfsrtpb.TripDescriptor_ScheduleRelationship(*p.Relationship).Enum()
			}
		}
		if p.StopSeq != nil {
			vp.CurrentStopSequence = proto.Uint32(*p.StopSeq)
		}
		if p.StopID != "" {
			vp.StopId = proto.String(p.StopID)
		}
		if p.Status != nil {
			vp.CurrentStatus = gtfsrtpb.VehiclePosition_VehicleStopStatus(*p.Status).Enum()
		}
		msg.Entity = append(msg.Entity, &gtfsrtpb.FeedEntity{
			Id:      proto.String("vp-" + p.VehicleID),
			Vehicle: vp,
		})
	}
	return mustMarshal(t, msg)
}

// Gzip compresses b.
func Gzip(t testing.TB, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func newFeed(ts uint64) *gtfsrtpb.FeedMessage {
	header := &gtfsrtpb.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")}
	if ts != 0 {
		header.Timestamp = proto.Uint64(ts)
	}
	return &gtfsrtpb.FeedMessage{Header: header}
}

func mustMarshal(t testing.TB, msg *gtfsrtpb.FeedMessage) []byte {
	t.Helper()
	b, err := proto.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal feed: %v", err)
	}
	return b
}
