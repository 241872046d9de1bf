package algo

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchLayout 监听布局文件变化，解析成功后回调 onReload
// 解析失败时保留旧布局，只记录日志。阻塞直到 ctx 结束
func WatchLayout(ctx context.Context, path string, onReload func(*CampusMap)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer watcher.Close()

	// 监听目录而不是文件本身，编辑器保存时常常是 rename + create
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("监听目录失败: %w", err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			raw, err := os.ReadFile(path)
			if err != nil || len(raw) == 0 {
				// 保存过程中的截断，等下一次写入
				continue
			}
			m, err := ParseLayout(raw)
			if err != nil {
				log.Printf("布局重新加载失败，继续使用旧布局: %v", err)
				continue
			}
			log.Printf("布局已重新加载: %s", path)
			onReload(m)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("布局监听错误: %v", err)
		}
	}
}
