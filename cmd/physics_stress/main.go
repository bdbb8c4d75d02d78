// Stress test for the software physics engine: grid broad-phase step time
// against a naive O(n²) sphere pair scan over the same bodies.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"lava/internal/native"
	"lava/internal/softphysics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// moveCounter is the body listener; it only counts callbacks.
type moveCounter struct {
	moved    int
	contacts int
}

func (m *moveCounter) BodyMoved(native.ProxyRef, rl.Vector3, rl.Quaternion) { m.moved++ }
func (m *moveCounter) ShapeContact(native.ProxyRef, native.Contact)         { m.contacts++ }

type sphere struct {
	pos    rl.Vector3
	radius float32
}

func main() {
	steps := flag.Int("steps", 60, "fixed steps timed per object count")
	flag.Parse()

	// Test various object counts
	testCounts := []int{100, 500, 1000, 2000, 5000}

	for _, count := range testCounts {
		testStep(count, *steps)
	}
}

func testStep(count, steps int) {
	rng := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0

	eng := softphysics.New(nil, 1.0/60.0, 1)
	counter := &moveCounter{}
	eng.SetBodyListener(counter)
	pw := eng.CreateSpace()
	eng.SetGravity(pw, rl.Vector3{Y: -9.81})

	floor := eng.CreateRigidBody(pw, rl.Vector3{Y: -spawnSize / 2}, rl.QuaternionIdentity(), 0)
	eng.SetBodyType(floor, native.BodyStatic)
	eng.CreateShape(floor, native.ShapeDesc{
		Kind:       native.ShapeBox,
		HalfExtent: rl.Vector3{X: spawnSize, Y: 1, Z: spawnSize},
		Rotation:   rl.QuaternionIdentity(),
	})

	spheres := make([]sphere, count)
	for i := range spheres {
		s := sphere{
			pos: rl.Vector3{
				X: rng.Float32()*spawnSize - spawnSize/2,
				Y: rng.Float32()*spawnSize - spawnSize/2,
				Z: rng.Float32()*spawnSize - spawnSize/2,
			},
			radius: 0.5 + rng.Float32()*0.5, // 0.5 to 1.0 radius
		}
		spheres[i] = s
		b := eng.CreateRigidBody(pw, s.pos, rl.QuaternionIdentity(), native.ProxyRef(i+1))
		eng.CreateShape(b, native.ShapeDesc{
			Kind:     native.ShapeSphere,
			Radius:   s.radius,
			Rotation: rl.QuaternionIdentity(),
			Mass:     1,
		})
	}

	// Warm up
	eng.Step()
	counter.moved = 0

	stepStart := time.Now()
	for i := 0; i < steps; i++ {
		eng.Step()
	}
	stepTime := time.Since(stepStart) / time.Duration(steps)

	// Naive pair scan over the spawn positions.
	const naiveIterations = 10
	naiveStart := time.Now()
	var pairCount int
	for iter := 0; iter < naiveIterations; iter++ {
		pairCount = 0
		for i := 0; i < len(spheres); i++ {
			for j := i + 1; j < len(spheres); j++ {
				d := rl.Vector3Subtract(spheres[i].pos, spheres[j].pos)
				radiusSum := spheres[i].radius + spheres[j].radius
				if rl.Vector3DotProduct(d, d) < radiusSum*radiusSum {
					pairCount++
				}
			}
		}
	}
	naiveTime := time.Since(naiveStart) / naiveIterations

	fmt.Printf("%5d objects: step %9v (%6d moves/step) | naive pairs %10v (%4d pairs) | %.1fx\n",
		count, stepTime.Round(time.Microsecond), counter.moved/steps,
		naiveTime.Round(time.Microsecond), pairCount,
		float64(naiveTime)/float64(stepTime))
}
