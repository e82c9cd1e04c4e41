package gtfsrt

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gtfsrtpb "github.com/OneBusAway/go-gtfs/proto"
	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/proto"
)

var (
	// ErrEmptyPayload is returned for zero-length snapshots.
	ErrEmptyPayload = errors.New("empty payload")
	// ErrMissingTimestamp is returned when the feed header carries no timestamp.
	ErrMissingTimestamp = errors.New("feed header has no timestamp")
)

var gzipMagic = []byte{0x1f, 0x8b}

// DecodeError reports a snapshot that could not be decoded.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode snapshot %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode parses one raw snapshot. Gzip-compressed payloads are inflated first.
func Decode(name string, payload []byte) (*Snapshot, error) {
	if len(payload) == 0 {
		return nil, &DecodeError{Name: name, Err: ErrEmptyPayload}
	}
	if bytes.HasPrefix(payload, gzipMagic) {
		inflated, err := gunzip(payload)
		if err != nil {
			return nil, &DecodeError{Name: name, Err: err}
		}
		if len(inflated) == 0 {
			return nil, &DecodeError{Name: name, Err: ErrEmptyPayload}
		}
		payload = inflated
	}

	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(payload, &fm); err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	ts := int64(fm.GetHeader().GetTimestamp())
	if ts == 0 {
		return nil, &DecodeError{Name: name, Err: ErrMissingTimestamp}
	}

	snap := &Snapshot{
		Name:      name,
		Timestamp: ts,
		Entities:  make([]Entity, 0, len(fm.GetEntity())),
	}
	for _, e := range fm.GetEntity() {
		ent := Entity{ID: e.GetId()}
		if e.TripUpdate != nil {
			ent.TripUpdate = convertTripUpdate(e.GetTripUpdate())
		}
		if e.Vehicle != nil {
			ent.Vehicle = convertVehicle(e.GetVehicle())
		}
		snap.Entities = append(snap.Entities, ent)
	}
	return snap, nil
}

func gunzip(payload []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()
	b, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return b, nil
}

func convertTripUpdate(tu *gtfsrtpb.TripUpdate) *TripUpdateEntity {
	trip := tu.GetTrip()
	out := &TripUpdateEntity{
		TripID:               trip.GetTripId(),
		RouteID:              trip.GetRouteId(),
		VehicleID:            tu.GetVehicle().GetId(),
		ScheduleRelationship: ScheduleRelationship(trip.GetScheduleRelationship()),
		StopTimeUpdates:      make([]StopTimeUpdate, 0, len(tu.GetStopTimeUpdate())),
	}
	for _, stu := range tu.GetStopTimeUpdate() {
		u := StopTimeUpdate{
			StopID:        stu.GetStopId(),
			ArrivalTime:   stu.GetArrival().GetTime(),
			DepartureTime: stu.GetDeparture().GetTime(),
		}
		if stu.StopSequence != nil {
			seq := stu.GetStopSequence()
			u.StopSequence = &seq
		}
		out.StopTimeUpdates = append(out.StopTimeUpdates, u)
	}
	return out
}

func convertVehicle(vp *gtfsrtpb.VehiclePosition) *VehiclePositionEntity {
	out := &VehiclePositionEntity{
		VehicleID: vp.GetVehicle().GetId(),
		StopID:    vp.GetStopId(),
		Timestamp: int64(vp.GetTimestamp()),
	}
	if vp.Trip != nil {
		out.TripID = vp.GetTrip().GetTripId()
		out.RouteID = vp.GetTrip().GetRouteId()
		sr := ScheduleRelationship(vp.GetTrip().GetScheduleRelationship())
		out.ScheduleRelationship = &sr
	}
	if vp.CurrentStopSequence != nil {
		seq := vp.GetCurrentStopSequence()
		out.CurrentStopSequence = &seq
	}
	if vp.CurrentStatus != nil {
		st := StopStatus(vp.GetCurrentStatus())
		out.CurrentStatus = &st
	}
	if vp.Position != nil {
		p := vp.GetPosition()
		out.Position = &Position{
			Latitude:  p.GetLatitude(),
			Longitude: p.GetLongitude(),
			Bearing:   p.GetBearing(),
			Speed:     p.GetSpeed(),
		}
	}
	return out
}
