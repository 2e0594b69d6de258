// This file is part of GopherNES.
//
// GopherNES is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherNES is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherNES.  If not, see <https://www.gnu.org/licenses/>.

package recorder

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/jetsetilly/gophernes/curated"
	"github.com/jetsetilly/gophernes/paths"
	"github.com/jetsetilly/gophernes/wavwriter"
)

// Profile selects the ffmpeg encoding options.
type Profile string

// List of valid Profile values.
const (
	ProfileFast        Profile = "FAST"
	Profile1080        Profile = "1080"
	ProfileYouTube1080 Profile = "YouTube1080"
	ProfileYouTube4k   Profile = "YouTube4k"
)

// FFMPEG implements the Muxer interface by piping frames to an ffmpeg process.
// Audio is written to a temporary WAV file and muxed with the video when the
// recording is closed.
type FFMPEG struct {
	// progress and error messages are written to Log. can be nil
	Log     io.Writer
	Profile Profile

	cfg Config

	finalVideoFilename string
	tempVideoFilename  string
	tempAudioFilename  string

	// the time the recording started
	start  time.Time
	frames int

	// the running ffmpeg command and the data pipe from the emulation
	encoder *exec.Cmd
	pipe    io.WriteCloser

	// we record audio to a separate file and then mux it with the video in a
	// final step
	wav *wavwriter.WavWriter
}

// NewFFMPEG is the preferred method of initialisation for the FFMPEG type.
func NewFFMPEG(profile Profile, log io.Writer) *FFMPEG {
	return &FFMPEG{
		Profile: profile,
		Log:     log,
	}
}

func (vid *FFMPEG) logf(format string, args ...any) {
	if vid.Log != nil {
		fmt.Fprintf(vid.Log, format, args...)
	}
}

// options for the ffmpeg command
func (vid *FFMPEG) options() ([]string, error) {
	var ffmpegInput = []string{
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", vid.cfg.Width, vid.cfg.Height),
		"-r", strconv.FormatFloat(vid.cfg.FPS(), 'f', 6, 64), // incoming frame rate
		"-i", "-", // stdin pipe
	}

	var ffmpegFast = []string{
		"-crf", "18", // amount of compression. 12 and higher starts to lose colour fidelity
		"-preset", "fast", // the amount of time spent optimising compression between frames
		"-r", "60", // output is always 60fps
	}

	var ffmpeg1080p = []string{
		"-crf", "11",
		"-preset", "medium",
		"-vf", "scale=-2:1080:flags=neighbor,pad=1920:1080:(ow-iw)/2:(oh-ih)/2",
		"-r", "60",
	}

	var ffmpegYouTube1080 = []string{
		"-c:v", "libx264",
		"-preset", "slow",
		"-pix_fmt", "yuv420p10le",
		"-crf", "15", // 15 is a good value for yuv420p10le
		"-profile:v", "high10",
		"-vf", "scale=-2:1080:flags=neighbor,pad=1920:1080:(ow-iw)/2:(oh-ih)/2",
		"-r", "60",
	}

	var ffmpegYouTube4k = []string{
		"-c:v", "libx264",
		"-preset", "slow",
		"-pix_fmt", "yuv420p10le",
		"-crf", "15",
		"-profile:v", "high10",
		"-vf", "scale=-2:2160:flags=neighbor,pad=3840:2160:(ow-iw)/2:(oh-ih)/2",
		"-r", "60",
	}

	var ffmpegOutput = []string{
		"-v", "error", // less noisy output from the ffmpeg command
		"-y", // always overwrite output file
		vid.tempVideoFilename,
	}

	var opts []string

	opts = append(opts, ffmpegInput...)
	switch vid.Profile {
	case ProfileFast, "":
		opts = append(opts, ffmpegFast...)
	case Profile1080:
		opts = append(opts, ffmpeg1080p...)
	case ProfileYouTube1080:
		opts = append(opts, ffmpegYouTube1080...)
	case ProfileYouTube4k:
		opts = append(opts, ffmpegYouTube4k...)
	default:
		return nil, curated.Errorf("ffmpeg: unknown profile: %s", vid.Profile)
	}
	opts = append(opts, ffmpegOutput...)

	return opts, nil
}

// Open implements the Muxer interface.
func (vid *FFMPEG) Open(cfg Config) error {
	// check that both ffprobe and ffmpeg are available in the executable path
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return curated.Errorf("ffmpeg: not installed")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return curated.Errorf("ffprobe: not installed")
	}

	vid.cfg = cfg

	// the base for the output file's name. we append .mp4 for the video file
	// and .wav for the audio file
	base := strings.TrimSuffix(cfg.Filename, ".mp4")
	if base == "" {
		base = paths.UniqueFilename("video", cfg.Name)
	}
	vid.finalVideoFilename = fmt.Sprintf("%s.mp4", base)
	vid.tempVideoFilename = fmt.Sprintf("%s_tmp.mp4", base)
	vid.tempAudioFilename = fmt.Sprintf("%s_tmp.wav", base)

	opts, err := vid.options()
	if err != nil {
		return err
	}

	vid.encoder = exec.Command("ffmpeg", opts...)

	vid.pipe, err = vid.encoder.StdinPipe()
	if err != nil {
		return curated.Errorf("ffmpeg: %v", err)
	}

	if vid.Log != nil {
		vid.encoder.Stderr = vid.Log
		vid.encoder.Stdout = vid.Log
	}

	err = vid.encoder.Start()
	if err != nil {
		vid.pipe = nil
		return curated.Errorf("ffmpeg: %v", err)
	}

	vid.wav, err = wavwriter.NewWavWriter(vid.tempAudioFilename, cfg.SampleRate)
	if err != nil {
		vid.pipe.Close()
		_ = vid.encoder.Wait()
		vid.pipe = nil
		return curated.Errorf("ffmpeg: %v", err)
	}

	vid.start = time.Now()
	vid.frames = 0
	vid.logf("recording video\n")

	return nil
}

// Filename implements the Muxer interface.
func (vid *FFMPEG) Filename() string {
	return vid.finalVideoFilename
}

// AddFrame implements the Muxer interface.
func (vid *FFMPEG) AddFrame(pix []uint8) error {
	if vid.pipe == nil {
		return curated.Errorf("ffmpeg: not open")
	}
	if _, err := vid.pipe.Write(pix); err != nil {
		return curated.Errorf("ffmpeg: %v", err)
	}
	vid.frames++
	return nil
}

// AddSamples implements the Muxer interface.
func (vid *FFMPEG) AddSamples(samples []int16) error {
	if vid.wav == nil {
		return curated.Errorf("ffmpeg: not open")
	}
	vid.wav.AddSamples(samples, vid.cfg.SampleRate)
	return nil
}

// Close implements the Muxer interface. The temporary video and audio files
// are muxed into the final file.
func (vid *FFMPEG) Close() error {
	if vid.pipe == nil {
		return nil
	}

	vid.pipe.Close()
	vid.pipe = nil
	if err := vid.encoder.Wait(); err != nil {
		vid.logf("%v\n", err)
	}
	vid.encoder = nil

	if err := vid.wav.Close(); err != nil {
		vid.logf("%v\n", err)
	}
	vid.wav = nil

	// summarise results
	diff := time.Since(vid.start)
	vid.logf("%d frames recorded in %s (%.02f fps)\n", vid.frames, diff.Round(time.Second), float64(vid.frames)/diff.Seconds())

	return vid.mux()
}

// probe the duration of the file
func probe(filename string) (float64, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1",
		filename)

	out, err := cmd.Output()
	if err != nil {
		return 0, curated.Errorf("ffprobe: %v", err)
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, curated.Errorf("ffprobe: %v", err)
	}

	return d, nil
}

func (vid *FFMPEG) mux() error {
	vid.logf("probing intermediary video and audio files\n")

	videoDuration, err := probe(vid.tempVideoFilename)
	if err != nil {
		return err
	}
	audioDuration, err := probe(vid.tempAudioFilename)
	if err != nil {
		return err
	}

	// the audio is stretched to the length of the video. the video frame rate
	// is not exactly the rate the audio was produced at
	stretch := atempo(audioDuration, videoDuration)
	vid.logf("stretching audio by a factor of %0.4f\n", 1.0/stretch)

	vid.logf("muxing final output file: %s\n", vid.finalVideoFilename)

	muxer := exec.Command("ffmpeg",
		"-v", "error",
		"-y",
		"-i", vid.tempVideoFilename, "-i", vid.tempAudioFilename,
		"-vcodec", "copy", "-acodec", "mp3",
		"-filter:a", fmt.Sprintf("atempo=%f", stretch),
		vid.finalVideoFilename)

	if err := muxer.Run(); err != nil {
		return curated.Errorf("ffmpeg: mux: %v", err)
	}

	// removing temp files only if probing and muxing has succeeded
	if err := os.Remove(vid.tempVideoFilename); err != nil {
		vid.logf("%v\n", err)
	}
	if err := os.Remove(vid.tempAudioFilename); err != nil {
		vid.logf("%v\n", err)
	}

	return nil
}

// atempo returns the value for the ffmpeg atempo filter. the filter only
// accepts values between 0.5 and 100
func atempo(audioDuration, videoDuration float64) float64 {
	if videoDuration <= 0 || audioDuration <= 0 {
		return 1.0
	}
	return min(max(audioDuration/videoDuration, 0.5), 100.0)
}
