package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/image-playground/internal/cli"
	"github.com/nulzo/image-playground/internal/store/model"
	"github.com/nulzo/image-playground/internal/store/sqlite"
	"go.uber.org/zap"
)

// seed fills the local image store with gradient swatches so the gallery
// has something to show before the first real generation.
func main() {
	path := flag.String("db", "playground.db", "SQLite database path")
	count := flag.Int("n", 5, "Number of images to create")
	flag.Parse()

	repo, err := sqlite.NewSQLiteStorage(*path, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()
	for i := 0; i < *count; i++ {
		progress := float64(i) / float64(max(*count-1, 1))
		data, err := swatch(cli.Lerp(cli.BrandBlue, cli.BrandPurple, progress))
		if err != nil {
			log.Fatal(err)
		}

		id, err := uuid.NewV7()
		if err != nil {
			log.Fatal(err)
		}
		obj := &model.Object{
			Image: model.Image{
				Key:         id.String() + ".png",
				ContentType: "image/png",
				Model:       "seed",
				UploadedAt:  time.Now().UTC(),
			},
			Data: data,
		}
		if err := repo.Put(ctx, obj); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s Created %s\n", cli.CheckMark(), obj.Key)
	}
}

func swatch(c cli.RGB) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		shade := 1 - float64(y)/128
		px := color.RGBA{uint8(c.R * shade), uint8(c.G * shade), uint8(c.B * shade), 255}
		for x := 0; x < 64; x++ {
			img.Set(x, y, px)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
