// Package testhelpers builds in-memory GTFS and GTFS-RT fixtures for package tests.
package testhelpers

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// BasicGTFSFiles is a one-agency feed in America/New_York with weekday service WK:
//
//	T1  route R1  shape S1  08:00 -> 08:30  stops A(1) B(5) C(9)
//	T2  route R1  shape S1  09:00 -> 09:30
//	T3  route R2            23:30 -> 25:10  (runs past midnight)
//
// Service WK runs Monday to Friday in 2024. Service HOL only runs 2024-07-06 (a Saturday)
// via calendar_dates, and WK is removed on 2024-07-04.
func BasicGTFSFiles() map[string]string {
	return map[string]string{
		"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
			"AG,Test Transit,https://example.com,America/New_York\n",
		"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_type\n" +
			"R1,AG,1,Main,3\n" +
			"R2,AG,2,Night,3\n",
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"A,Stop A,40.0,-74.0\n" +
			"B,Stop B,40.1,-74.1\n" +
			"C,Stop C,40.2,-74.2\n",
		"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
			"WK,1,1,1,1,1,0,0,20240101,20241231\n",
		"calendar_dates.txt": "service_id,date,exception_type\n" +
			"WK,20240704,2\n" +
			"HOL,20240706,1\n",
		"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
			"S1,40.0,-74.0,1\n" +
			"S1,40.2,-74.2,2\n",
		"trips.txt": "route_id,service_id,trip_id,shape_id,block_id\n" +
			"R1,WK,T1,S1,B1\n" +
			"R1,WK,T2,S1,B1\n" +
			"R2,WK,T3,,B2\n" +
			"R1,HOL,H1,S1,\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,08:00:00,08:00:00,A,1\n" +
			"T1,08:15:00,08:15:00,B,5\n" +
			"T1,08:30:00,08:30:00,C,9\n" +
			"T2,09:00:00,09:00:00,A,1\n" +
			"T2,09:30:00,09:30:00,C,9\n" +
			"T3,23:30:00,23:30:00,C,1\n" +
			"T3,25:10:00,25:10:00,A,2\n" +
			"H1,10:00:00,10:00:00,A,1\n" +
			"H1,10:20:00,10:20:00,C,2\n",
	}
}

// GTFSZip returns a zip archive of files.
func GTFSZip(t testing.TB, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data to root/elem..., creating parent directories.
func WriteFile(t testing.TB, data []byte, root string, elem ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, elem...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
