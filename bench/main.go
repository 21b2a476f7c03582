package main

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"time"
	"vid/index"
	"vid/pp"
	"vid/store"
	"vid/vid"
)

const (
	numPolys = 4
)

var chunkSizes = []int{4, 16, 64, 256, 1024}

// percentage of a polynomial covered by the proved range
var rangeCoverages = []int{1, 50, 100}

type sizes []int

func (s sizes) Avg() int {
	var sum int
	for _, size := range s {
		sum += size
	}
	return sum / len(s)
}

type durations []time.Duration

func (d durations) Avg() time.Duration {
	var sum time.Duration
	for _, duration := range d {
		sum += duration
	}
	return sum / time.Duration(len(d))
}

type measurementByChunkSize map[int]*measurement

func (m measurementByChunkSize) series(f func(*measurement) int64) string {
	bb := bytes.Buffer{}
	for _, chunkSize := range chunkSizes {
		bb.WriteString(fmt.Sprintf("(%d, %d)", chunkSize, f(m[chunkSize])))
	}
	return bb.String()
}

type measurement struct {
	ppGenTime  durations
	commitTime durations
	proofTime  durations
	verifyTime durations
	proofSize  sizes
}

type measurements struct {
	iterations int
	small      map[int]measurementByChunkSize
	large      map[int]measurementByChunkSize
}

func main() {
	setParallelism()

	m := &measurements{
		iterations: getIterations(),
		small:      make(map[int]measurementByChunkSize),
		large:      make(map[int]measurementByChunkSize),
	}

	db := NewDB()
	defer db.Destroy()

	for _, coverage := range rangeCoverages {
		m.small[coverage] = make(measurementByChunkSize)
		m.large[coverage] = make(measurementByChunkSize)
		for _, chunkSize := range chunkSizes {
			m.small[coverage][chunkSize] = &measurement{}
			m.large[coverage][chunkSize] = &measurement{}
			benchmarkChunkSize(m, db, chunkSize, coverage)
		}
	}

	for _, coverage := range rangeCoverages {
		fmt.Printf("Range covering %d%% of a polynomial:\n", coverage)
		for _, kind := range []struct {
			name string
			m    measurementByChunkSize
		}{{"small", m.small[coverage]}, {"large", m.large[coverage]}} {
			fmt.Println(kind.name, "PP gen times:", kind.m.series(func(m *measurement) int64 { return m.ppGenTime.Avg().Milliseconds() }))
			fmt.Println(kind.name, "commit times:", kind.m.series(func(m *measurement) int64 { return m.commitTime.Avg().Milliseconds() }))
			fmt.Println(kind.name, "proof times:", kind.m.series(func(m *measurement) int64 { return m.proofTime.Avg().Microseconds() }))
			fmt.Println(kind.name, "verify times:", kind.m.series(func(m *measurement) int64 { return m.verifyTime.Avg().Microseconds() }))
			fmt.Println(kind.name, "proof sizes:", kind.m.series(func(m *measurement) int64 { return int64(m.proofSize.Avg()) }))
		}
	}
}

func benchmarkChunkSize(m *measurements, db *store.DB, chunkSize, coverage int) {
	fmt.Println("Benchmarking chunk size", chunkSize, "range coverage", coverage, "...")

	small := m.small[coverage][chunkSize]
	large := m.large[coverage][chunkSize]

	start := time.Now()
	params, err := pp.NewPublicParams(chunkSize)
	if err != nil {
		panic(err)
	}
	small.ppGenTime = append(small.ppGenTime, time.Since(start))
	large.ppGenTime = small.ppGenTime

	s, err := vid.New(chunkSize, params)
	if err != nil {
		panic(err)
	}

	payload := make([]byte, numPolys*s.PolyByteLen())
	if _, err := rand.Read(payload); err != nil {
		panic(err)
	}

	start = time.Now()
	commit, common, err := s.Commit(payload)
	if err != nil {
		panic(err)
	}
	small.commitTime = append(small.commitTime, time.Since(start))
	large.commitTime = small.commitTime

	st := store.New(db)
	if err := st.PutCommon(commit, common); err != nil {
		panic(err)
	}

	rangeLen := max(1, s.PolyByteLen()*coverage/100)

	for iteration := 0; iteration < m.iterations; iteration++ {
		poly := iteration % numPolys
		offset := poly*s.PolyByteLen() + (iteration*7)%(s.PolyByteLen()-rangeLen+1)
		r := index.Range{Start: offset, End: offset + rangeLen}
		stmt := vid.Statement{
			PayloadSubslice: payload[r.Start:r.End],
			Range:           r,
			Commit:          &commit,
			Common:          common,
		}

		start = time.Now()
		smallProof, err := s.SmallRange().PayloadProof(payload, r)
		if err != nil {
			panic(err)
		}
		small.proofTime = append(small.proofTime, time.Since(start))

		start = time.Now()
		if ok, err := s.SmallRange().PayloadVerify(stmt, smallProof); err != nil || !ok {
			panic(fmt.Sprintf("small range proof for %v did not verify: %v", r, err))
		}
		small.verifyTime = append(small.verifyTime, time.Since(start))

		raw, err := smallProof.MarshalBinary()
		if err != nil {
			panic(err)
		}
		small.proofSize = append(small.proofSize, len(raw))
		if err := st.PutSmallRangeProof(commit, smallProof); err != nil {
			panic(err)
		}

		start = time.Now()
		largeProof, err := s.LargeRange().PayloadProof(payload, r)
		if err != nil {
			panic(err)
		}
		large.proofTime = append(large.proofTime, time.Since(start))

		start = time.Now()
		if ok, err := s.LargeRange().PayloadVerify(stmt, largeProof); err != nil || !ok {
			panic(fmt.Sprintf("large range proof for %v did not verify: %v", r, err))
		}
		large.verifyTime = append(large.verifyTime, time.Since(start))

		raw, err = largeProof.MarshalBinary()
		if err != nil {
			panic(err)
		}
		large.proofSize = append(large.proofSize, len(raw))
		if err := st.PutLargeRangeProof(commit, largeProof); err != nil {
			panic(err)
		}
	}
}

func setParallelism() {
	parallelism := os.Getenv("PARALLELISM")

	if parallelism == "0" {
		fmt.Println("Running with parallelism disabled")
		pp.ParallelismEnabled = false
	} else if parallelism == "1" || parallelism == "" {
		fmt.Println("Running with parallelism enabled (Use PARALLELISM=0 to turn it off)")
		pp.ParallelismEnabled = true
	} else {
		fmt.Println("PARALLELISM environment variable can either be 0 or 1")
		os.Exit(2)
	}
}

func getIterations() int {
	var err error
	iterationsString := os.Getenv("ITERATIONS")
	iterations := int64(10)
	if iterationsString != "" {
		iterations, err = strconv.ParseInt(iterationsString, 10, 32)
		if err != nil {
			panic(err)
		}
	}

	fmt.Println("Will amortize over", iterations, "iterations")

	return int(iterations)
}

func NewDB() *store.DB {
	dir, err := os.MkdirTemp("", "levelDB")
	if err != nil {
		panic(err)
	}
	db, err := store.NewDB(dir)
	if err != nil {
		panic(err)
	}
	return db
}
