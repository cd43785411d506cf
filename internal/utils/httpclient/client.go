package httpclient

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ForecastBoard/internal/config"

	"github.com/sirupsen/logrus"
)

// NewHTTPClient 通用HTTP客户端构建方法（支持代理、超时、自动解压）
func NewHTTPClient(cfg *config.UpstreamConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  true, // 由 compressedTransport 负责解压
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	return &http.Client{
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
		Transport: &compressedTransport{transport: transport, logger: logger},
	}
}

type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Header.Get("Content-Encoding") != "gzip" {
		return resp, nil
	}

	// 先 peek 魔数，避免解压失败时已吞掉响应体
	br := bufio.NewReader(resp.Body)
	magic, _ := br.Peek(2)
	if !bytes.Equal(magic, gzipMagic) {
		c.logger.WithField("url", req.URL.String()).Warn("响应声明 gzip 但内容未压缩，按原文返回")
		resp.Body = &bufferedReadCloser{Reader: br, closer: resp.Body}
		resp.Header.Del("Content-Encoding")
		return resp, nil
	}

	gzReader, err := gzip.NewReader(br)
	if err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("gzip解压失败: %w", err)
	}
	resp.Body = &gzipReadCloser{
		Reader: gzReader,
		closer: resp.Body,
	}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	return resp, nil
}

var gzipMagic = []byte{0x1f, 0x8b}

type bufferedReadCloser struct {
	*bufio.Reader
	closer io.Closer
}

func (b *bufferedReadCloser) Close() error { return b.closer.Close() }

// gzipReadCloser 包装 io.ReadCloser，关闭时同时关闭解压 reader 与原始响应体
type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.closer.Close()
		return err
	}
	return g.closer.Close()
}
