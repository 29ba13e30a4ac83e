// Package codec moves rounded images across the byte boundary.
//
// Decoding turns an uploaded file into a roundimg.SourceImage. It enforces
// a size limit and a pixel budget and sniffs the content to confirm it is an
// image. PNG, JPEG and GIF decoders come from the standard library; BMP,
// TIFF and WebP from golang.org/x/image.
//
// Encoding serializes a roundimg.Result. The primary encoder is PNG at best
// compression. If it fails, a lossless TIFF encoder runs once as a fallback.
//
//	src, info, err := codec.LoadFile("photo.jpg")
//	if err != nil {
//		return err
//	}
//	res, err := roundimg.Export(src, roundimg.FullRequest(src, 40))
//	if err != nil {
//		return err
//	}
//	enc, err := codec.Encode(res, codec.PNGEncoder{}, codec.TIFFEncoder{})
//	if err != nil {
//		return err
//	}
//	name := codec.Filename("export", res.Radius(), time.Now(), enc.Format)
package codec
